package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"dconn.dev/realmgen/internal/config"
	"dconn.dev/realmgen/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	del := flag.String("delete", "", "slot to delete")
	flag.Parse()

	ctx := context.Background()
	store, err := services.OpenStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open save store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *del != "" {
		if err := store.Delete(ctx, *del); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete %s: %v\n", *del, err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s\n", *del)
		return
	}

	saves, err := store.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list saves: %v\n", err)
		os.Exit(1)
	}
	if len(saves) == 0 {
		fmt.Println("No saves.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tPLAYER\tLEVEL\tWORLD\tSAVED")
	for _, s := range saves {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.ID, s.PlayerName, s.PlayerLevel, s.WorldName, humanize.Time(s.Timestamp))
	}
	tw.Flush()
}
