// Package imageset manages the directory of captured calibration images.
//
// Images are named calibration_image_<N>.png with an unpadded counter starting
// at 1. Plain lexicographic order therefore puts calibration_image_10.png
// before calibration_image_2.png; OrderSequence sorts on the counter instead.
package imageset

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// Prefix starts every captured image name
	Prefix = "calibration_image_"
	// Ext is the fixed image extension
	Ext = ".png"
)

// ErrNotEmpty is returned by Prepare when the directory already holds entries
var ErrNotEmpty = errors.New("calibration images directory is not empty")

// Order selects how List sorts the images
type Order int

const (
	// OrderSequence sorts by capture counter; names without one follow in lexical order
	OrderSequence Order = iota
	// OrderLexical sorts by filename only
	OrderLexical
)

func (o Order) String() string {
	if o == OrderLexical {
		return "lexical"
	}
	return "sequence"
}

// Entry is one image found in the set
type Entry struct {
	Name string
	Path string
	// Seq is the capture counter parsed from the name, 0 if the name has none
	Seq int
}

// Set is a calibration image directory
type Set struct {
	Dir string
}

// Name returns the file name for the n-th captured image
func Name(n int) string {
	return Prefix + strconv.Itoa(n) + Ext
}

// Sequence extracts the capture counter from an image name
func Sequence(name string) (int, bool) {
	if !strings.HasPrefix(name, Prefix) || !strings.HasSuffix(name, Ext) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, Prefix), Ext)
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Prepare readies dir for a new acquisition. A missing directory is created.
// An existing non-empty directory is refused unless deleteExisting is set, in
// which case every entry inside it is removed. It returns the number of
// entries removed.
func Prepare(dir string, deleteExisting bool) (*Set, int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, 0, errors.Wrapf(err, "failed to create %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to read %s", dir)
	}
	if len(entries) > 0 && !deleteExisting {
		return nil, 0, errors.Wrapf(ErrNotEmpty, "%s holds %d entries", dir, len(entries))
	}

	removed := 0
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return nil, removed, errors.Wrapf(err, "failed to remove %s", e.Name())
		}
		removed++
	}
	return &Set{Dir: dir}, removed, nil
}

// Path returns where the n-th captured image is written
func (s *Set) Path(n int) string {
	return filepath.Join(s.Dir, Name(n))
}

// List returns the regular .png files in the set in the requested order
func (s *Set) List(order Order) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.Dir)
	}

	var entries []Entry
	for _, e := range dirEntries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		seq, _ := Sequence(e.Name())
		entries = append(entries, Entry{
			Name: e.Name(),
			Path: filepath.Join(s.Dir, e.Name()),
			Seq:  seq,
		})
	}

	Sort(entries, order)
	return entries, nil
}

// Sort orders entries in place
func Sort(entries []Entry, order Order) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if order == OrderSequence && (a.Seq > 0 || b.Seq > 0) {
			switch {
			case a.Seq == 0:
				return false
			case b.Seq == 0:
				return true
			case a.Seq != b.Seq:
				return a.Seq < b.Seq
			}
		}
		return a.Name < b.Name
	})
}
