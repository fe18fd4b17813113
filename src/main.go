package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"docmapper/src/directors"
	"docmapper/src/helpers"
	"docmapper/src/settings"
)

// printUsage prints helpful usage information
func printUsage() {
	log.Println("docmapper - maps tagged Go structs to BSON documents and back")
	log.Println("\nUsage:")
	log.Println("  docmapper [options]")
	log.Println("\nOptions:")
	flag.PrintDefaults()

	log.Println("\nExamples:")
	log.Println("  docmapper --canonical")
	log.Println("  docmapper --input=record.json --logfile=logs/docmapper.log")
}

func main() {
	args := settings.GetSettings()

	var (
		input     string
		canonical bool
	)

	flag.StringVar(&args.ConfigFile, "config", "", "Path to a YAML config file")
	flag.StringVar(&args.LogFile, "logfile", "", "File to write log messages to (default: stdout only)")
	flag.BoolVar(&args.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&args.Debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&args.PrintToScreen, "print", true, "Print log messages to screen")
	flag.BoolVar(&args.AutoRegister, "autoregister", true, "Register nested types that declare a builder on first use")
	flag.IntVar(&args.MaxDepth, "maxdepth", settings.DefaultMaxDepth, "Maximum nesting depth of documents")
	flag.StringVar(&input, "input", "", "Extended JSON file holding a contact document to decode")
	flag.BoolVar(&canonical, "canonical", false, "Print canonical instead of relaxed Extended JSON")
	flag.Usage = printUsage

	flag.Parse()

	if args.ConfigFile != "" {
		if err := settings.LoadConfigFile(args.ConfigFile, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
			printUsage()
			os.Exit(1)
		}
	}
	if err := settings.Validate(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		printUsage()
		os.Exit(1)
	}

	logger, err := directors.NewLogger(args)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	service := directors.InitMapperService(args, logger)

	contact, err := loadContact(service, input)
	if err != nil {
		logger.Fatalf("Failed to load contact: %v", err)
	}

	doc, err := service.ToDocument(contact)
	if err != nil {
		logger.Fatalf("Failed to convert contact: %v", err)
	}

	out, err := helpers.ToExtJSON(doc, canonical)
	if err != nil {
		logger.Fatalf("Failed to render contact: %v", err)
	}
	fmt.Println(out)

	keys, err := service.IndexKeys(contact)
	if err != nil {
		logger.Fatalf("Failed to build index keys: %v", err)
	}
	for _, k := range keys {
		logger.Infow("Index key", "index", k.IndexName, "key", k.KeyString, "hash", k.HashValue)
	}
}

// loadContact decodes the contact stored in path, or returns the built-in sample.
func loadContact(service *directors.MapperService, path string) (*Contact, error) {
	if path == "" {
		return sampleContact(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read input file: %w", err)
	}
	doc, err := helpers.FromExtJSON(string(data))
	if err != nil {
		return nil, err
	}
	return directors.Decode[Contact](service, doc)
}
