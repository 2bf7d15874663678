package main

import (
	"encoding/json"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/airbase-go/airbase/pkg/airtable"
	"github.com/airbase-go/airbase/pkg/context"
	"github.com/airbase-go/airbase/pkg/log"
)

var (
	app     = kingpin.New("airbase", "Query and inspect Airtable bases from the command line.")
	debug   = app.Flag("debug", "Enable debug logging.").Bool()
	jsonLog = app.Flag("json-log", "Log in JSON format.").Bool()
	token   = app.Flag("token", "Airtable API token. Defaults to $AIRTABLE_API_KEY.").String()

	whoamiCmd = app.Command("whoami", "Show the identity and scopes of the token.")

	basesCmd = app.Command("bases", "List bases accessible to the token.")

	tablesCmd  = app.Command("tables", "List tables in a base.")
	tablesBase = tablesCmd.Flag("base", "Base id or name.").Required().String()

	recordsCmd     = app.Command("records", "List records in a table.")
	recordsBase    = recordsCmd.Flag("base", "Base id or name.").Required().String()
	recordsTable   = recordsCmd.Flag("table", "Table id or name.").Required().String()
	recordsFormula = recordsCmd.Flag("formula", "filterByFormula expression.").String()
	recordsView    = recordsCmd.Flag("view", "View id or name.").String()
	recordsFields  = recordsCmd.Flag("field", "Field to return. Repeatable.").Strings()
	recordsMax     = recordsCmd.Flag("max", "Maximum number of records to fetch.").Int()
)

func main() {
	// A .env next to the binary may carry AIRTABLE_API_KEY.
	_ = godotenv.Load()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	sink := log.WithConsoleSink(os.Stderr)
	if *jsonLog {
		sink = log.WithJSONSink(os.Stderr)
	}
	logger, sync := log.New("airbase", sink)
	defer func() { _ = sync() }()
	if *debug {
		log.SetLevel(2)
	}
	context.SetDefaultLogger(logger)
	ctx := context.Background()

	client := airtable.New(*token)

	var err error
	switch cmd {
	case whoamiCmd.FullCommand():
		err = runWhoami(ctx, client)
	case basesCmd.FullCommand():
		err = runBases(ctx, client)
	case tablesCmd.FullCommand():
		err = runTables(ctx, client, *tablesBase)
	case recordsCmd.FullCommand():
		err = runRecords(ctx, client)
	}
	if err != nil {
		color.Red("[x] %s", err)
		os.Exit(1)
	}
}

func runWhoami(ctx context.Context, client *airtable.Client) error {
	info, err := client.Whoami(ctx)
	if err != nil {
		return err
	}
	color.Green("[!] Valid Airtable token")
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"User ID", "Email", "Scopes"})
	tw.AppendRow(table.Row{info.ID, info.Email, len(info.Scopes)})
	tw.Render()
	return nil
}

func runBases(ctx context.Context, client *airtable.Client) error {
	bases, err := client.Bases(ctx)
	if err != nil {
		return err
	}
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Base ID", "Name", "Permission"})
	for _, b := range bases {
		tw.AppendRow(table.Row{b.ID, b.Name, b.PermissionLevel})
	}
	tw.Render()
	return nil
}

func runTables(ctx context.Context, client *airtable.Client, baseRef string) error {
	base, err := client.Base(ctx, baseRef)
	if err != nil {
		return err
	}
	tables, err := base.Tables(ctx)
	if err != nil {
		return err
	}
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Table ID", "Name", "Primary Field", "Fields", "Views"})
	for _, t := range tables {
		tw.AppendRow(table.Row{t.ID, t.Name, t.PrimaryFieldName(), len(t.Fields), len(t.Views)})
	}
	tw.Render()
	return nil
}

func runRecords(ctx context.Context, client *airtable.Client) error {
	base, err := client.Base(ctx, *recordsBase)
	if err != nil {
		return err
	}
	tbl, err := base.Table(ctx, *recordsTable)
	if err != nil {
		return err
	}

	var opts []airtable.ListOption
	if *recordsFormula != "" {
		opts = append(opts, airtable.ByFormula(*recordsFormula))
	}
	if *recordsView != "" {
		opts = append(opts, airtable.InView(*recordsView))
	}
	if len(*recordsFields) > 0 {
		opts = append(opts, airtable.ByFields(*recordsFields...))
	}
	if *recordsMax > 0 {
		opts = append(opts, airtable.WithMaxRecords(*recordsMax))
	}

	records, err := tbl.Records(ctx, opts...)
	if err != nil {
		return err
	}
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Record ID", "Created", "Fields"})
	for _, rec := range records {
		fields, err := json.Marshal(rec.Fields)
		if err != nil {
			return err
		}
		tw.AppendRow(table.Row{rec.ID, rec.CreatedTime.Format("2006-01-02"), string(fields)})
	}
	tw.Render()
	return nil
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	return tw
}
