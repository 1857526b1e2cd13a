package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/example/go-subword/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var skipModel bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local runtime, corpus and model checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			dcfg := doctor.Config{
				FS:        appFS,
				GoVersion: runtimeGoVersion,
				Normalize: cfg.Train.Normalize,
			}
			if cfg.Paths.CorpusPath != "" {
				dcfg.CorpusPaths = []string{cfg.Paths.CorpusPath}
			}
			if !skipModel {
				dcfg.ModelPath = cfg.Paths.ModelPath
			}

			out := cmd.OutOrStdout()
			result := doctor.Run(dcfg, out)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipModel, "skip-model", false, "Skip the model file check (before the first train)")

	return cmd
}

func runtimeGoVersion() (string, error) {
	return runtime.Version(), nil
}
