package eif

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// Measurements are the platform configuration registers identifying an
// enclave image, as reported by the builder. They are passed through to the
// user unmodified.
type Measurements struct {
	HashAlgorithm string `json:"HashAlgorithm"`
	PCR0          string `json:"PCR0"`
	PCR1          string `json:"PCR1"`
	PCR2          string `json:"PCR2"`
}

// Result is a successful build: where the image landed and what it measures as.
type Result struct {
	ArtifactPath string
	Measurements Measurements
}

// Builder turns a prepared docker build context into an enclave image.
// signingCertificate and privateKey may be empty for unsigned images.
type Builder interface {
	Build(resourceDir, tag, workspaceDir, outputPath, signingCertificate, privateKey string) (*Result, error)
}

// CLIBuilder builds enclave images by invoking nitro-cli build-enclave.
// Command overrides the binary to invoke; the zero value uses nitro-cli
// from PATH.
type CLIBuilder struct {
	Command string
}

type buildOutput struct {
	Measurements Measurements `json:"Measurements"`
}

func (b CLIBuilder) Build(resourceDir, tag, workspaceDir, outputPath, signingCertificate, privateKey string) (*Result, error) {
	name := b.Command
	if name == "" {
		name = "nitro-cli"
	}
	args := []string{
		"build-enclave",
		"--docker-dir", workspaceDir,
		"--docker-uri", tag,
		"--output-file", outputPath,
	}
	if signingCertificate != "" {
		args = append(args, "--signing-certificate", signingCertificate)
	}
	if privateKey != "" {
		args = append(args, "--private-key", privateKey)
	}

	out := new(buildOutput)
	if err := run(out, '{', resourceDir, name, args...); err != nil {
		return nil, err
	}
	return &Result{ArtifactPath: outputPath, Measurements: out.Measurements}, nil
}

// run executes a command and decodes the JSON document it prints on stdout.
// nitro-cli writes human-readable progress lines before the document, so the
// reader scans forward to stop (the document's opening byte) first. The
// child's stderr is inherited so its diagnostics reach the user directly.
func run(v any, stop byte, resourceDir, name string, arg ...string) error {
	cmd := exec.Command(name, arg...)
	buf := new(bytes.Buffer)
	cmd.Stdout = buf
	cmd.Stderr = os.Stderr
	if resourceDir != "" {
		cmd.Env = append(os.Environ(), "NITRO_CLI_BLOBS_PATH="+resourceDir)
	}
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed", name)
	}

	reader := bufio.NewReader(buf)
	if _, err := reader.ReadString(stop); err != nil {
		return errors.Wrapf(err, "no JSON output from %s", name)
	}
	if err := reader.UnreadByte(); err != nil {
		return err
	}
	if err := json.NewDecoder(reader).Decode(v); err != nil {
		return errors.Wrapf(err, "decoding %s output", name)
	}
	return nil
}
