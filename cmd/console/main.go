package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config  string `help:"Directory holding config.yaml and .env." default:"." type:"existingdir"`
	Profile string `help:"Console profile, overrides the configured one."`
	Token   string `help:"Bearer token for the API, overrides the configured one." env:"CONSOLE_API_TOKEN"`
	Debug   bool   `help:"Log at debug level."`
}

// CLI is the top-level command structure of the console.
type CLI struct {
	Globals

	Version         kong.VersionFlag   `help:"Show version." short:"V"`
	Dashboard       DashboardCmd       `cmd:"" default:"1" help:"Open the interactive console."`
	List            ListCmd            `cmd:"" help:"Print one page of a resource."`
	Show            ShowCmd            `cmd:"" help:"Print a single record as JSON."`
	Delete          DeleteCmd          `cmd:"" help:"Delete a record."`
	CreateHotelType CreateHotelTypeCmd `cmd:"" name:"create-hotel-type" help:"Create a hotel type."`
	Prefetch        PrefetchCmd        `cmd:"" help:"Warm the lookup lists into the shared cache."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("console"),
		kong.Description("Hotel management console."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
