package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/brave-experiments/elf2eif/pkg/convert"
	"github.com/brave-experiments/elf2eif/pkg/eif"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	req := new(convert.Request)
	verbose := false

	cmd := &cobra.Command{
		Use:           "elf2eif",
		Short:         "ELF to EIF conversion tool",
		Long:          "Converts a standalone executable into an AWS Nitro enclave image (EIF).",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(newLogger(verbose), eif.CLIBuilder{}, req, cmd.OutOrStdout())
		},
	}
	bindFlags(cmd.Flags(), req, &verbose)
	cmd.MarkFlagRequired("input-file")  //nolint:errcheck
	cmd.MarkFlagRequired("output-file") //nolint:errcheck
	return cmd
}

func bindFlags(flags *pflag.FlagSet, req *convert.Request, verbose *bool) {
	flags.StringVarP(&req.InputPath, "input-file", "i", "", "path to input ELF file")
	flags.StringVarP(&req.OutputPath, "output-file", "o", "", "path to output EIF file")
	flags.StringVarP(&req.ResourcePath, "resource-path", "r", convert.DefaultResourcePath, "path to the resource directory")
	flags.StringVarP(&req.SigningCertificate, "signing-certificate", "c", "", "path to signing certificate for signed enclaves")
	flags.StringVarP(&req.PrivateKey, "private-key", "k", "", "path to private key for signed enclaves")
	flags.BoolVarP(verbose, "verbose", "v", false, "print extra information about the conversion process")
}

// newLogger configures diagnostic verbosity once, before the pipeline runs.
// The default surfaces errors only; -v raises it to debug.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.ErrorLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Str("build_id", uuid.NewString()).Logger()
}

// run reports on a single conversion: a progress line up front, then either
// the artifact path and its measurements, or the pipeline's error for main
// to map to a non-zero exit.
func run(logger zerolog.Logger, builder eif.Builder, req *convert.Request, out io.Writer) error {
	fmt.Fprintf(out, "Converting elf file `%s` to eif, please wait\n", req.InputPath)

	result, err := convert.Run(logger, builder, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Enclave Image successfully created: `%s`\n", result.ArtifactPath)
	m := result.Measurements
	fmt.Fprintf(out, "HashAlgorithm: %s\n", m.HashAlgorithm)
	fmt.Fprintf(out, "PCR0: %s\n", m.PCR0)
	fmt.Fprintf(out, "PCR1: %s\n", m.PCR1)
	fmt.Fprintf(out, "PCR2: %s\n", m.PCR2)
	return nil
}
