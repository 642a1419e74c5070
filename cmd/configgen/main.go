package main

import (
	"flag"
	"log"

	"github.com/danmuck/pagectl/internal/config"
)

func main() {
	kind := flag.String("kind", "profile", "config kind: profile|client")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing profile file")
	input := flag.String("input", "profile.toml", "profile path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		if _, err := config.LoadProfile(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated profile at %s", *input)
		return
	}

	target := *output
	if target == "" {
		switch *kind {
		case "profile":
			target = "profile.toml"
		case "client":
			target = "client.toml"
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s template to %s", *kind, target)
}
