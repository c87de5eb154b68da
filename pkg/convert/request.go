package convert

import "os"

// DefaultResourcePath is where nitro-cli installs its build blobs.
const DefaultResourcePath = "/usr/share/nitro_enclaves/blobs/"

// Request describes one conversion. It is constructed from command line
// flags and read-only afterwards.
type Request struct {
	InputPath          string
	OutputPath         string
	ResourcePath       string
	SigningCertificate string
	PrivateKey         string
}

// Resource returns the resource directory, falling back to the default.
func (r *Request) Resource() string {
	if r.ResourcePath == "" {
		return DefaultResourcePath
	}
	return r.ResourcePath
}

// Validate checks every filesystem precondition before anything is mutated.
// Checks run in order and stop at the first failure, so an invalid request
// never reaches workspace creation.
func (r *Request) Validate() error {
	if err := checkReadableFile(r.InputPath); err != nil {
		return err
	}

	info, err := os.Stat(r.Resource())
	if err != nil {
		return &ValidationError{Path: r.Resource(), Reason: "resource directory does not exist"}
	}
	if !info.IsDir() {
		return &ValidationError{Path: r.Resource(), Reason: "resource path is not a directory"}
	}

	if r.SigningCertificate != "" {
		if err := checkReadableFile(r.SigningCertificate); err != nil {
			return err
		}
	}
	if r.PrivateKey != "" {
		if err := checkReadableFile(r.PrivateKey); err != nil {
			return err
		}
	}
	return nil
}

func checkReadableFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Path: path, Reason: "file does not exist"}
	}
	if !info.Mode().IsRegular() {
		return &ValidationError{Path: path, Reason: "not a regular file"}
	}
	f, err := os.Open(path)
	if err != nil {
		return &ValidationError{Path: path, Reason: "file is not readable"}
	}
	f.Close()
	return nil
}
