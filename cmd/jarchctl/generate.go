package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jarch/internal/client"
)

func newGenerateCmd(o *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate SAVE_ID",
		Short: "Generate a project from a save, stream its log and download the zip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "SAVE_ID")
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("project-%d.zip", id)
			}
			c, err := o.client()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			job, err := c.GenerateFromSave(ctx, id)
			if err != nil {
				return err
			}
			events, err := c.Stream(ctx, job)
			if err != nil {
				return err
			}

			for ev := range events {
				switch ev.Type {
				case client.EventLog:
					cmd.Printf("[%s] %s\n", strings.ToUpper(ev.Level), ev.Message)
				case client.EventZipReady:
					if err := writeFile(out, func(f *os.File) (int64, error) {
						return c.Download(ctx, job, f)
					}); err != nil {
						return err
					}
					cmd.Printf("Архив: %s\n", out)
					return nil
				case client.EventError:
					if ev.Detail != "" {
						return fmt.Errorf("%s: %s", ev.Message, ev.Detail)
					}
					return errors.New(ev.Message)
				}
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			return errors.New(client.ConnectionLost)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output zip (default: project-<SAVE_ID>.zip)")
	return cmd
}
