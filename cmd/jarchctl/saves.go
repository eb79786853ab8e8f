package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jarch/internal/appconfig"
	"jarch/internal/entityconfig"
)

// saveDocs — оба документа сохранения. Пока есть ошибки, на платформу ничего не уходит.
func (o *options) saveDocs(cmd *cobra.Command, entityPath, appPath string) (entityconfig.Document, appconfig.Document, error) {
	ent, err := readEntityConfig(entityPath)
	if err != nil {
		return ent, appconfig.Document{}, err
	}
	app, err := readAppConfig(appPath)
	if err != nil {
		return ent, app, err
	}
	cat, err := o.catalog()
	if err != nil {
		return ent, app, err
	}
	errEnt := report(cmd, entityPath, entityconfig.Validate(ent))
	errApp := report(cmd, appPath, appconfig.Validate(app, cat))
	if errEnt != nil || errApp != nil {
		return ent, app, errInvalid
	}
	return ent, app, nil
}

func docFlags(cmd *cobra.Command, entityPath, appPath *string) {
	cmd.Flags().StringVar(entityPath, "entity", "entity-config.json", "entity-config file")
	cmd.Flags().StringVar(appPath, "app", "app-config.json", "app-config file")
}

func newSavesCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "Project saves (entity-config + app-config pairs)",
	}

	list := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List saves of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "PROJECT_ID")
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			saves, err := c.Saves(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, s := range saves {
				cmd.Printf("%d\t%s\n", s.ID, s.Name)
			}
			return nil
		},
	}

	var entityPath, appPath string
	create := &cobra.Command{
		Use:   "create PROJECT_ID NAME",
		Short: "Validate both documents and create a save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "PROJECT_ID")
			if err != nil {
				return err
			}
			ent, app, err := o.saveDocs(cmd, entityPath, appPath)
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			s, err := c.CreateSave(cmd.Context(), id, args[1], ent, app)
			if err != nil {
				return err
			}
			if s != nil {
				cmd.Printf("Сохранено: %d\t%s\n", s.ID, s.Name)
			} else {
				cmd.Println("Сохранено")
			}
			return nil
		},
	}
	docFlags(create, &entityPath, &appPath)

	var updEntity, updApp string
	update := &cobra.Command{
		Use:   "update SAVE_ID NAME",
		Short: "Validate both documents and overwrite a save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "SAVE_ID")
			if err != nil {
				return err
			}
			ent, app, err := o.saveDocs(cmd, updEntity, updApp)
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			if _, err := c.UpdateSave(cmd.Context(), id, args[1], ent, app); err != nil {
				return err
			}
			cmd.Println("Сохранено")
			return nil
		},
	}
	docFlags(update, &updEntity, &updApp)

	del := &cobra.Command{
		Use:   "delete SAVE_ID",
		Short: "Delete a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "SAVE_ID")
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			return c.DeleteSave(cmd.Context(), id)
		},
	}

	var outEntity, outApp string
	download := &cobra.Command{
		Use:   "download SAVE_ID",
		Short: "Download both documents of a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "SAVE_ID")
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			if err := writeFile(outEntity, func(f *os.File) (int64, error) {
				return c.DownloadEntityConfig(cmd.Context(), id, f)
			}); err != nil {
				return err
			}
			if err := writeFile(outApp, func(f *os.File) (int64, error) {
				return c.DownloadAppConfig(cmd.Context(), id, f)
			}); err != nil {
				return err
			}
			cmd.Printf("%s\n%s\n", outEntity, outApp)
			return nil
		},
	}
	docFlags(download, &outEntity, &outApp)

	cmd.AddCommand(list, create, update, del, download)
	return cmd
}

// writeFile: при ошибке частично записанный файл удаляется.
func writeFile(path string, fn func(*os.File) (int64, error)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = fn(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
