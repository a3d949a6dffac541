package mmctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/motomarket/internal/server/auth"
)

const usage = `usage:
  mmctl token  -user ID [-secret KEY] [-ttl 24h]
  mmctl upload [-api URL] [-token TOKEN] FILE...`

// Run executes one mmctl command. args excludes the program name.
func Run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "token":
		return runToken(args[1:], stdout)
	case "upload":
		return runUpload(ctx, args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func runToken(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "user id to put in the token subject")
	secret := fs.String("secret", os.Getenv("MOTOMARKET_SECRET"), "server JWT secret")
	ttl := fs.Duration("ttl", 24*time.Hour, "token validity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *user == "" {
		return errors.New("token: -user is required")
	}
	if *secret == "" {
		return errors.New("token: -secret or MOTOMARKET_SECRET is required")
	}

	tok, err := auth.GenerateToken(*user, []byte(*secret), *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, tok)
	return err
}

func runUpload(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	api := fs.String("api", "http://localhost:8080", "marketplace API base URL")
	token := fs.String("token", os.Getenv("MOTOMARKET_TOKEN"), "bearer token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return errors.New("upload: no files given")
	}

	c := NewClient(*api, *token, &http.Client{Timeout: time.Minute})
	for _, name := range fs.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		key, err := c.UploadImage(ctx, name, data)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(stdout, key); err != nil {
			return err
		}
	}
	return nil
}
