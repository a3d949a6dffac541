package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/motomarket/internal/mmctl"
)

func main() {

	ctx := context.Background()

	if err := mmctl.Run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}

}
