package workspace

import (
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// PayloadName is the fixed filename of the executable inside the build context.
const PayloadName = "enclave"

const manifestTemplate = `FROM scratch
COPY {{ .payload }} .
CMD ["./{{ .payload }}"]
`

// Workspace is an ephemeral docker build context, exclusively owned by one
// conversion. It holds exactly one payload executable and one manifest.
type Workspace struct {
	dir string
}

// Create allocates a fresh, uniquely named workspace directory.
func Create() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "elf2eif-docker-")
	if err != nil {
		return nil, errors.Wrap(err, "creating workspace directory")
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Populate copies the executable into the workspace under PayloadName and
// writes the single-layer image manifest next to it. The manifest shape is
// the same every invocation: an empty base, the payload as the only file,
// and a run command that executes it.
func (w *Workspace) Populate(executablePath string) error {
	if err := copyFile(executablePath, filepath.Join(w.dir, PayloadName)); err != nil {
		return errors.Wrap(err, "copying payload")
	}

	file, err := os.Create(filepath.Join(w.dir, "Dockerfile"))
	if err != nil {
		return errors.Wrap(err, "creating manifest")
	}
	defer file.Close()

	templ := template.Must(template.New("manifest").Parse(manifestTemplate))
	if err := templ.Execute(file, map[string]interface{}{"payload": PayloadName}); err != nil {
		return errors.Wrap(err, "writing manifest")
	}
	return nil
}

// Remove deletes the workspace and all contents. Failure is downgraded to a
// warning: a leaked directory must never overwrite the build outcome.
func (w *Workspace) Remove(logger zerolog.Logger) {
	if err := os.RemoveAll(w.dir); err != nil {
		logger.Warn().Err(err).Str("dir", w.dir).Msg("could not clean up workspace")
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
