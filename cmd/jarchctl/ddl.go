package main

import (
	"github.com/spf13/cobra"

	"jarch/internal/pg"
)

func newDDLCmd(o *options) *cobra.Command {
	var schema, dbURL string
	var apply bool
	cmd := &cobra.Command{
		Use:   "ddl FILE",
		Short: "Print (or apply) Postgres DDL for an entity-config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readEntityConfig(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("schema") {
				schema = o.cfg.Schema
			}
			ddl, err := pg.GenerateDDL(doc, schema)
			if err != nil {
				return err
			}

			for _, k := range pg.Keys(ddl) {
				cmd.Printf("-- %s\n%s\n", k, ddl[k])
			}

			if !apply {
				return nil
			}
			if dbURL == "" {
				dbURL = o.cfg.DBURL
			}
			db, err := pg.Open(cmd.Context(), dbURL)
			if err != nil {
				return err
			}
			defer db.Close()
			res, err := pg.ApplyDDL(cmd.Context(), db, ddl)
			if err != nil {
				return err
			}
			cmd.Printf("-- applied: %d, skipped: %d\n", res.Applied, len(res.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "public", "Target schema")
	cmd.Flags().BoolVar(&apply, "apply", false, "Apply to the database")
	cmd.Flags().StringVar(&dbURL, "db", "", "Postgres URL (default: config / JARCH_DB_URL)")
	return cmd
}
