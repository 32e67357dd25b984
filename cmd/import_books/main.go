// Command import_books bulk-loads a book catalog from a CSV file into the
// library data directory. Rows are "title,author,copies"; malformed rows
// are reported and skipped.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"librarydesk/config"
	"librarydesk/library"
	"librarydesk/logging"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var configPath string
	var filePath string

	root := &cobra.Command{
		Use:          "import_books",
		Short:        "Import books from a CSV file into the library catalog",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(configPath, filePath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to configuration file")
	root.Flags().StringVar(&filePath, "file", "", "CSV file with title,author,copies rows")
	_ = root.MarkFlagRequired("file")

	hash := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash usable as the admin password config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hashed))
			return nil
		},
	}
	root.AddCommand(hash)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(configPath, filePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	log := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	lib, err := library.Open(cfg.Storage.DataDir, library.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open library data: %w", err)
	}
	defer lib.Close()

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	type imported struct {
		id    int
		title string
	}
	var added []imported
	skipped := 0
	line := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			fmt.Printf("line %d: %v, skipping\n", line, err)
			skipped++
			continue
		}

		title := strings.TrimSpace(row[0])
		author := strings.TrimSpace(row[1])
		copies, convErr := strconv.Atoi(strings.TrimSpace(row[2]))
		if title == "" || convErr != nil || copies < 1 {
			fmt.Printf("line %d: invalid row %q, skipping\n", line, strings.Join(row, ","))
			skipped++
			continue
		}

		id, err := lib.AddBook(title, author, copies)
		if err != nil {
			fmt.Printf("line %d: %v, skipping\n", line, err)
			skipped++
			continue
		}
		added = append(added, imported{id: id, title: title})
	}

	fmt.Printf("\nImport complete: %d added, %d skipped\n", len(added), skipped)
	if len(added) > 0 {
		tw := table.NewWriter()
		tw.AppendHeader(table.Row{"ID", "Title"})
		for _, b := range added {
			tw.AppendRow(table.Row{b.id, b.title})
		}
		fmt.Println(tw.Render())
	}
	return nil
}
