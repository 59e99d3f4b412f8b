package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/delaneyj/cellparty/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	genericParamCountKey = "count"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate arity constructors for cells",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  genericParamCountKey,
				Usage: "Number of generic parameters to generate",
				Value: 8,
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for cells started !")
	defer func() {
		log.Printf("Codegen for cells finished in %v", time.Since(start))
	}()

	genericParamCount := cmd.Uint(genericParamCountKey)

	contents := templates.ArityGen(int(genericParamCount))
	if err := os.WriteFile("cells/arity.go", []byte(contents), 0644); err != nil {
		return err
	}

	return nil
}
