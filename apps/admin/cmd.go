package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	echoapi "github.com/kasozi/gpatrack/apps/api/echo"
	"github.com/kasozi/gpatrack/core"
	"github.com/kasozi/gpatrack/core/gpa"
	redissession "github.com/kasozi/gpatrack/storage/session/redis"
)

// newRootCmd builds the admin CLI. All commands act on the shared Redis
// session store, so a Redis address is required.
func newRootCmd(conf *core.Config) *cobra.Command {
	var sessionID string

	root := &cobra.Command{
		Use:           "gpatrack-admin",
		Short:         "Inspect and manage stored GPA sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&sessionID, "session", "", "the session ID to operate on")
	_ = root.MarkPersistentFlagRequired("session")

	newSvc := func() (*gpa.Service, error) {
		repo, err := openRepository(conf)
		if err != nil {
			return nil, err
		}
		return gpa.NewService(repo, newValidator()), nil
	}

	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print a session snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			snap, err := svc.Get(context.Background(), sessionID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete a stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			if err = svc.Reset(context.Background(), sessionID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session %q purged\n", sessionID)
			return nil
		},
	}

	var outPath string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write a session's GPA report to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			snap, err := svc.Get(context.Background(), sessionID)
			if err != nil {
				return err
			}
			file, err := echoapi.BuildWorkbook(snap)
			if err != nil {
				return errors.Wrap(err, "building workbook")
			}
			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()
			if _, err = file.WriteTo(out); err != nil {
				return errors.Wrap(err, "writing workbook")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", outPath)
			return nil
		},
	}
	export.Flags().StringVar(&outPath, "out", "gpa-report.xlsx", "output file path")

	root.AddCommand(dump, purge, export)
	return root
}

func newValidator() *validator.Validate {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	gpa.InitValidators(validate, translator)
	return validate
}

func openRepository(conf *core.Config) (gpa.Repository, error) {
	if conf.Redis.Address == "" {
		return nil, errors.New("a Redis address must be configured for admin commands")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging Redis")
	}
	return redissession.NewSnapshotRepository(client, conf.SessionTTL), nil
}
