package main

import (
	"github.com/alecthomas/kong"
	"github.com/solenne-dev/ledgerfold/cli"
)

var cliStruct struct {
	cli.Commands
}

func main() {
	ctx := kong.Parse(&cliStruct,
		kong.Name("ledgerfold"),
		kong.Description("A plain-text double-entry accounting journal parser, formatter, and reporter."),
		kong.UsageOnError(),
		kong.Bind(&cliStruct.Globals),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
