package sectionid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

const (
	// DefaultMarker separates the filename-derived prefix of a misplaced
	// section id from its local suffix.
	DefaultMarker = "_8dox_"
	// DefaultMaxLevel is the deepest sectN element inspected.
	DefaultMaxLevel = 5
)

var (
	// ErrMissingMarker indicates a section id that needs repair but does not
	// contain the marker.
	ErrMissingMarker = errors.New("section id has no marker")
	// ErrMissingCompoundID indicates a compounddef element without an id.
	ErrMissingCompoundID = errors.New("compounddef has no id")
	// ErrParse wraps XML parse failures.
	ErrParse = errors.New("parse xml")
	// ErrSerialize wraps XML serialization failures.
	ErrSerialize = errors.New("serialize xml")
)

// MalformedIDError reports a section id that cannot be repaired.
type MalformedIDError struct {
	CompoundID string
	SectionID  string
	Marker     string
	Level      int
}

func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("sect%d id %q under compound %q: no %q marker",
		e.Level, e.SectionID, e.CompoundID, e.Marker)
}

func (e *MalformedIDError) Unwrap() error {
	return ErrMissingMarker
}

// Fix records one rewritten section id.
type Fix struct {
	CompoundID string
	OldID      string
	NewID      string
	Level      int
}

// Result summarizes a repair pass.
type Result struct {
	Fixes   []Fix
	Changed bool
}

// Repairer rewrites misplaced section ids.
//
// Create instances with [New].
type Repairer struct {
	marker   string
	maxLevel int
}

// Option configures a [Repairer].
type Option func(*Repairer)

// WithMarker sets the marker that precedes the local part of a section id.
func WithMarker(marker string) Option {
	return func(r *Repairer) {
		r.marker = marker
	}
}

// WithMaxLevel sets the deepest section level to inspect. Negative values
// are clamped to 0.
func WithMaxLevel(level int) Option {
	return func(r *Repairer) {
		r.maxLevel = max(level, 0)
	}
}

// New creates a [Repairer] with the given options.
func New(opts ...Option) *Repairer {
	r := &Repairer{
		marker:   DefaultMarker,
		maxLevel: DefaultMaxLevel,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

type pending struct {
	el  *etree.Element
	fix Fix
}

// Repair rewrites every misplaced section id in doc.
//
// All violations are resolved before any element is touched: if one of them
// is malformed, a [*MalformedIDError] is returned and doc is left unmodified.
func (r *Repairer) Repair(doc *etree.Document) (Result, error) {
	var todo []pending

	for _, compound := range doc.FindElements("//compounddef") {
		compoundID := compound.SelectAttrValue("id", "")
		if compoundID == "" {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingCompoundID, compound.GetPath())
		}

		for level := 0; level <= r.maxLevel; level++ {
			for _, section := range compound.FindElements(fmt.Sprintf(".//sect%d", level)) {
				sectionID := section.SelectAttrValue("id", "")
				if strings.HasPrefix(sectionID, compoundID) {
					continue
				}

				newID, err := r.correct(compoundID, sectionID, level)
				if err != nil {
					return Result{}, err
				}

				todo = append(todo, pending{
					el: section,
					fix: Fix{
						CompoundID: compoundID,
						OldID:      sectionID,
						NewID:      newID,
						Level:      level,
					},
				})
			}
		}
	}

	res := Result{Changed: len(todo) > 0}
	for _, p := range todo {
		p.el.CreateAttr("id", p.fix.NewID)
		res.Fixes = append(res.Fixes, p.fix)
	}

	return res, nil
}

// correct builds the namespaced id for sectionID.
func (r *Repairer) correct(compoundID, sectionID string, level int) (string, error) {
	idx := strings.Index(sectionID, r.marker)
	if r.marker == "" || idx < 0 {
		return "", &MalformedIDError{
			CompoundID: compoundID,
			SectionID:  sectionID,
			Marker:     r.marker,
			Level:      level,
		}
	}

	return compoundID + "_" + sectionID[idx+len(r.marker):], nil
}

// RepairBytes parses data, repairs it, and serializes the result. When
// nothing changed the input slice is returned as is.
func (r *Repairer) RepairBytes(data []byte) ([]byte, Result, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true

	err := doc.ReadFromBytes(data)
	if err != nil {
		return nil, Result{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	res, err := r.Repair(doc)
	if err != nil {
		return nil, Result{}, err
	}

	if !res.Changed {
		return data, res, nil
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, Result{}, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	return out, res, nil
}
