// Package convert orchestrates the conversion of a standalone executable
// into an enclave image: it validates the request, stages the executable in
// an ephemeral docker build context and delegates the image build to an
// eif.Builder.
package convert

import (
	"github.com/rs/zerolog"

	"github.com/brave-experiments/elf2eif/pkg/eif"
	"github.com/brave-experiments/elf2eif/pkg/workspace"
)

// BuildTag is the image tag handed to the builder for every conversion.
const BuildTag = "elf2eif"

// Run executes the conversion pipeline and returns the builder's outcome
// unchanged. Validation strictly precedes any filesystem mutation, and the
// workspace is removed exactly once on every path that follows its creation,
// whether the build succeeds or fails.
func Run(logger zerolog.Logger, builder eif.Builder, req *Request) (*eif.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ws, err := workspace.Create()
	if err != nil {
		return nil, &WorkspaceError{Err: err}
	}
	defer ws.Remove(logger)
	logger.Debug().Str("dir", ws.Dir()).Msg("created workspace")

	if err := ws.Populate(req.InputPath); err != nil {
		return nil, &WorkspaceError{Err: err}
	}

	return builder.Build(req.Resource(), BuildTag, ws.Dir(), req.OutputPath, req.SigningCertificate, req.PrivateKey)
}
