package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"

	"board-lab/internal"
	"board-lab/repositories"
)

// Viewer dumps the stored boards as a table, or serves the inspect page
// with -serve. Opens the store read-only so it can run next to the server.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "board:", "Prefix to scan")
	serve := flag.Bool("serve", false, "Serve the inspect page instead of dumping")
	port := flag.Int("port", 8081, "Inspect page port, with -serve")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if *serve {
		viewerStats := func() map[string]any {
			return map[string]any{
				"Status": "Viewer Mode (Read-Only)",
				"Time":   time.Now().Format(time.RFC822),
			}
		}
		fmt.Printf("Viewer started at http://localhost:%d/inspect\n", *port)
		internal.StartDebugServer(db, *port, "/inspect", internal.BoardMapper, viewerStats)
		select {}
	}

	if err := dump(db, *prefix); err != nil {
		log.Fatalf("Failed to dump boards: %v", err)
	}
}

func dump(db *badger.DB, prefix string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Room", "State", "Mime", "Saved At", "Size"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				record, err := repositories.DecodeRecord(v)
				if err != nil {
					fmt.Printf("Error decoding key %s: %v\n", string(item.Key()), err)
					return nil
				}

				state := "SAVED"
				if record.Content == "" {
					state = "EMPTY"
				}
				mime := record.Mime
				if mime == "" {
					mime = "-"
				}

				table.Append([]string{
					string(item.Key()),
					strings.TrimPrefix(string(item.Key()), prefix),
					state,
					mime,
					record.SavedAt.Local().Format(time.TimeOnly),
					strconv.Itoa(len(record.Content)) + " bytes",
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	table.Render()
	return nil
}
