package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jarch/internal/appconfig"
	"jarch/internal/entityconfig"
)

var errInvalid = errors.New("document is invalid")

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func readEntityConfig(path string) (entityconfig.Document, error) {
	var doc entityconfig.Document
	err := readJSON(path, &doc)
	return doc, err
}

func readAppConfig(path string) (appconfig.Document, error) {
	doc := appconfig.Default()
	err := readJSON(path, &doc)
	return doc, err
}

// report печатает ошибки; пустой список — OK.
func report(cmd *cobra.Command, title string, errs []string) error {
	if len(errs) == 0 {
		cmd.Printf("%s: OK\n", title)
		return nil
	}
	cmd.Printf("%s: %d ошибок\n", title, len(errs))
	for _, e := range errs {
		cmd.Printf("  - %s\n", e)
	}
	return errInvalid
}

func newValidateCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate documents and type strings",
	}

	entity := &cobra.Command{
		Use:   "entity FILE",
		Short: "Validate an entity-config JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readEntityConfig(args[0])
			if err != nil {
				return err
			}
			return report(cmd, args[0], entityconfig.Validate(doc))
		},
	}

	app := &cobra.Command{
		Use:   "app FILE",
		Short: "Validate an app-config JSON file against the enum catalogs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readAppConfig(args[0])
			if err != nil {
				return err
			}
			cat, err := o.catalog()
			if err != nil {
				return err
			}
			return report(cmd, args[0], appconfig.Validate(doc, cat))
		},
	}

	var relation bool
	var entities []string
	typ := &cobra.Command{
		Use:   "type TYPE",
		Short: "Resolve a field type string, e.g. 'Map<String, Order>'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := entityconfig.ResolveType(args[0], relation, entities)
			if !rt.Valid() {
				cmd.Printf("invalid: %s\n", rt.Reason)
				return errInvalid
			}
			parts := []string{rt.Kind.String(), rt.Value}
			switch rt.Kind {
			case entityconfig.KindGeneric:
				parts = append(parts, "container="+rt.Container, "inner="+rt.Inner)
			case entityconfig.KindGenericMap:
				parts = append(parts, "container="+rt.Container, "key="+rt.Key, "value="+rt.ValueType)
			}
			cmd.Println(strings.Join(parts, " "))
			return nil
		},
	}
	typ.Flags().BoolVar(&relation, "relation", false, "Field has a relation")
	typ.Flags().StringSliceVar(&entities, "entities", nil, "Known entity names")

	cmd.AddCommand(entity, app, typ)
	return cmd
}
