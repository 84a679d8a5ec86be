package tracking

import (
	"context"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/export"
	"github.com/julianstephens/habitlit/internal/utils"
)

type ExportCmd struct {
	Start string `help:"First date (YYYY-MM-DD). Defaults to 30 days before --end."`
	End   string `help:"Last date (YYYY-MM-DD). Defaults to today."`
	Out   string `short:"o" help:"Output file. Defaults to habit_logs_<start>_<end>.csv." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	end, err := ctx.ResolveDate(c.End)
	if err != nil {
		return err
	}
	start := c.Start
	if start == "" {
		if start, err = utils.AddDays(end, -(constants.InsightDays - 1)); err != nil {
			return err
		}
	}

	records, err := svc.Logs(context.Background(), start, end)
	if err != nil {
		return err
	}
	out := c.Out
	if out == "" {
		out = export.DefaultFileName(start, end)
	}
	if err := export.WriteFile(out, records); err != nil {
		return err
	}
	ctx.Printf("Exported %d records to %s\n", len(records), out)
	return nil
}
