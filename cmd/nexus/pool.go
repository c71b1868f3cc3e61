package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/MikeSquared-Agency/nexus/internal/dedup"
	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

type poolCommand struct {
	Pool string `long:"pool" value-name:"FILE" default:"Pool.json" description:"Snapshot file used when DATABASE_URL is not set"`

	List   poolListCommand   `command:"list" description:"Print the pool board"`
	Show   poolShowCommand   `command:"show" description:"Print one profile"`
	Export poolExportCommand `command:"export" description:"Write the pool as a JSON array"`
	Import poolImportCommand `command:"import" description:"Replace the pool with a JSON array"`
	Remove poolRemoveCommand `command:"remove" description:"Remove one entry; later entries move up"`
	Dedup  poolDedupCommand  `command:"dedup" description:"Group entries sharing a phone or name and company"`
}

var poolCmd poolCommand

// withPool runs fn against the configured pool and saves it afterwards.
func withPool(fn func(ctx context.Context, repo talent.Repository) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupCLILogging(cfg.LogLevel)
	ctx := context.Background()

	repo, err := openRepository(ctx, cfg, poolCmd.Pool, logger)
	if err != nil {
		return fmt.Errorf("open talent pool: %w", err)
	}
	defer func() {
		if cerr := repo.close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx, repo.Repository)
}

type poolListCommand struct{}

func (c *poolListCommand) Execute(_ []string) error {
	return withPool(func(ctx context.Context, repo talent.Repository) error {
		recs, err := repo.List(ctx)
		if err != nil {
			return err
		}
		return writeBoard(os.Stdout, talent.Rows(recs))
	})
}

func writeBoard(w io.Writer, rows []talent.Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\t沟通日期\t公司\t姓名\t职位\t职级\t薪资\t学校\t在聊机会\t所在地\t倾向地点\t电话")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Index+1, r.CommDate, r.Company, r.Name, r.Position, r.Rank, r.Salary,
			r.School, r.CurrentOpportunity, r.Location, r.PreferredLocation, r.Phone)
	}
	return tw.Flush()
}

type indexArg struct {
	Position int `positional-arg-name:"POSITION" description:"1-based position as shown by list"`
}

type poolShowCommand struct {
	Args indexArg `positional-args:"yes" required:"yes"`
}

func (c *poolShowCommand) Execute(_ []string) error {
	return withPool(func(ctx context.Context, repo talent.Repository) error {
		rec, err := repo.Get(ctx, c.Args.Position-1)
		if err != nil {
			return fmt.Errorf("position %d: %w", c.Args.Position, err)
		}
		return printJSON(os.Stdout, map[string]any{
			"card":    rec.Card(),
			"profile": rec,
		})
	})
}

type poolExportCommand struct {
	Out string `long:"out" short:"o" value-name:"FILE" description:"Output file; stdout when empty"`
}

func (c *poolExportCommand) Execute(_ []string) error {
	return withPool(func(ctx context.Context, repo talent.Repository) error {
		recs, err := repo.List(ctx)
		if err != nil {
			return err
		}
		if c.Out == "" {
			return talent.Export(os.Stdout, recs)
		}
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.Out, err)
		}
		if err := talent.Export(f, recs); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

type poolImportCommand struct {
	Args struct {
		File string `positional-arg-name:"FILE" description:"JSON array written by export"`
	} `positional-args:"yes" required:"yes"`
}

func (c *poolImportCommand) Execute(_ []string) error {
	return withPool(func(ctx context.Context, repo talent.Repository) error {
		f, err := os.Open(c.Args.File)
		if err != nil {
			return fmt.Errorf("open %s: %w", c.Args.File, err)
		}
		defer f.Close()

		recs, err := talent.Import(f)
		if err != nil {
			return err
		}
		if err := repo.Replace(ctx, recs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "imported %d profiles\n", len(recs))
		return nil
	})
}

type poolRemoveCommand struct {
	Args indexArg `positional-args:"yes" required:"yes"`
}

func (c *poolRemoveCommand) Execute(_ []string) error {
	return withPool(func(ctx context.Context, repo talent.Repository) error {
		rec, err := repo.Remove(ctx, c.Args.Position-1)
		if err != nil {
			return fmt.Errorf("position %d: %w", c.Args.Position, err)
		}
		fmt.Fprintf(os.Stdout, "removed #%d %s\n", c.Args.Position, rec.Name())
		return nil
	})
}

type poolDedupCommand struct {
	Apply bool `long:"execute" description:"Drop duplicates instead of only listing them"`
}

func (c *poolDedupCommand) Execute(_ []string) error {
	return withPool(func(ctx context.Context, repo talent.Repository) error {
		res, err := dedup.New(repo, slog.Default()).Scan(ctx, c.Apply)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, res)
	})
}
