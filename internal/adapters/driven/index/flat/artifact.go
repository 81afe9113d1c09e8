package flat

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
)

// Ensure Artifacts implements the port.
var _ driven.VectorArtifacts = (*Artifacts)(nil)

// Artifact file layout, little-endian:
//
//	magic "FLX1" | u32 dimension | u32 count | count*dimension float32
//
// The file is written to a temp name and renamed into place, so a
// partially written artifact is never visible under its final name.
const (
	artifactMagic  = "FLX1"
	artifactPrefix = "resume_profiles_"
	artifactSuffix = ".flx"

	// timestampLayout keeps lexical and chronological filename order in
	// agreement.
	timestampLayout = "20060102T150405Z"
)

// Artifacts builds and searches flat index artifacts under a single
// directory.
type Artifacts struct {
	dir string

	// now is overridable for deterministic artifact names in tests.
	now func() time.Time
}

// NewArtifacts returns an artifact store rooted at dir. The directory is
// created on the first build.
func NewArtifacts(dir string) *Artifacts {
	return &Artifacts{dir: dir, now: time.Now}
}

// Dir returns the artifact directory.
func (a *Artifacts) Dir() string { return a.dir }

// Build validates the vector batch, builds a flat index over it, and
// writes a new timestamp-named artifact. The returned path names an
// immutable file; a later build always produces a new file.
func (a *Artifacts) Build(ctx context.Context, vectors [][]float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	index, err := New(vectors)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	path, err := a.nextArtifactPath()
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(a.dir, artifactPrefix+"*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := index.encode(w); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encoding artifact: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flushing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("publishing artifact: %w", err)
	}
	return path, nil
}

// Search loads the named artifact and performs exhaustive search.
// A missing file is domain.ErrNotFound; an artifact with no vectors is
// domain.ErrEmptyArtifact. k is clamped to the artifact size.
func (a *Artifacts) Search(ctx context.Context, path string, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if index.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyArtifact, path)
	}
	return index.Search(query, k)
}

// nextArtifactPath derives a unique timestamp-based artifact name. When
// two builds land in the same second, a numeric suffix keeps names
// unique while preserving sort order within the second.
func (a *Artifacts) nextArtifactPath() (string, error) {
	stamp := a.now().UTC().Format(timestampLayout)
	path := filepath.Join(a.dir, artifactPrefix+stamp+artifactSuffix)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}
	for n := 2; n < 1000; n++ {
		candidate := filepath.Join(a.dir, fmt.Sprintf("%s%s_%03d%s", artifactPrefix, stamp, n, artifactSuffix))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not derive unique artifact name for timestamp %s", stamp)
}

// encode writes the binary artifact layout.
func (x *Index) encode(w io.Writer) error {
	if _, err := w.Write([]byte(artifactMagic)); err != nil {
		return err
	}
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(x.dim))
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(u32[:], uint32(len(x.vectors)))
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	for _, vec := range x.vectors {
		for _, f := range vec {
			binary.LittleEndian.PutUint32(u32[:], math.Float32bits(f))
			if _, err := w.Write(u32[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFile loads an artifact from disk. A missing file is
// domain.ErrNotFound; a corrupt file is domain.ErrInvalidInput.
func ReadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: index artifact %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	index, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return index, nil
}

func decode(data []byte) (*Index, error) {
	header := len(artifactMagic) + 8
	if len(data) < header {
		return nil, fmt.Errorf("%w: truncated artifact header", domain.ErrInvalidInput)
	}
	if string(data[:len(artifactMagic)]) != artifactMagic {
		return nil, fmt.Errorf("%w: not a flat index artifact", domain.ErrInvalidInput)
	}
	off := len(artifactMagic)
	dim := int(binary.LittleEndian.Uint32(data[off : off+4]))
	count := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
	off += 8

	want := count * dim * 4
	if len(data)-off != want {
		return nil, fmt.Errorf("%w: artifact body has %d bytes, expected %d",
			domain.ErrInvalidInput, len(data)-off, want)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = vec
	}
	return &Index{dim: dim, vectors: vectors}, nil
}
