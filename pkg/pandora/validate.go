package pandora

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/G-Node/pandora/pkg/types"
)

// Issue is a problem found by Validate.
type Issue struct {
	Kind string
	ID   string
	Msg  string
}

func (i *Issue) Error() string {
	return fmt.Sprintf("%s %s: %s", i.Kind, i.ID, i.Msg)
}

// ValidationResult collects errors (the root is inconsistent) and warnings
// (dangling or suspicious references that the model tolerates).
type ValidationResult struct {
	errs  *multierror.Error
	warns *multierror.Error
}

// Errors returns the errors in the order they were found.
func (r *ValidationResult) Errors() []error {
	if r.errs == nil {
		return nil
	}
	return r.errs.Errors
}

// Warnings returns the warnings in the order they were found.
func (r *ValidationResult) Warnings() []error {
	if r.warns == nil {
		return nil
	}
	return r.warns.Errors
}

// OK reports whether no errors were found. Warnings do not count.
func (r *ValidationResult) OK() bool { return len(r.Errors()) == 0 }

// Err returns all errors combined, or nil.
func (r *ValidationResult) Err() error { return r.errs.ErrorOrNil() }

func (r *ValidationResult) errorf(kind, id, format string, args ...any) {
	r.errs = multierror.Append(r.errs, &Issue{Kind: kind, ID: id, Msg: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(kind, id, format string, args ...any) {
	r.warns = multierror.Append(r.warns, &Issue{Kind: kind, ID: id, Msg: fmt.Sprintf(format, args...)})
}

// validator walks one root. Only failures to read the root abort the walk;
// everything else is recorded in the result.
type validator struct {
	f   *File
	res *ValidationResult
}

// Validate walks the whole root and reports consistency problems. The
// returned error is non-nil only when the root could not be read.
func (f *File) Validate() (*ValidationResult, error) {
	v := &validator{f: f, res: &ValidationResult{}}
	if err := v.file(); err != nil {
		return nil, err
	}
	return v.res, nil
}

func (v *validator) file() error {
	format, err := v.f.Format()
	if err != nil {
		return err
	}
	if format != types.FormatName {
		v.res.errorf("file", v.f.ID(), "unknown format %q", format)
	}

	blocks, err := v.f.Blocks()
	if err != nil {
		return err
	}
	for _, b := range blocks {
		if err := v.block(b); err != nil {
			return err
		}
	}

	sections, err := v.f.FindSections(AcceptAll, Unbounded)
	if err != nil {
		return err
	}
	for _, s := range sections {
		if err := v.section(s); err != nil {
			return err
		}
	}
	return nil
}

// entity checks the name and type every named entity must carry.
func (v *validator) entity(kind string, n Node) error {
	name, err := n.Name()
	if err := v.attrErr(kind, n.ID(), "name", err); err != nil {
		return err
	}
	if name == "" && err == nil {
		v.res.errorf(kind, n.ID(), "empty name")
	}
	typ, err := n.Type()
	if err := v.attrErr(kind, n.ID(), "type", err); err != nil {
		return err
	}
	if typ == "" && err == nil {
		v.res.errorf(kind, n.ID(), "empty type")
	}
	return nil
}

// attrErr records a malformed attribute and passes other errors through.
func (v *validator) attrErr(kind, id, attr string, err error) error {
	if errors.Is(err, types.ErrFormatInvalid) {
		v.res.errorf(kind, id, "malformed %s: %v", attr, err)
		return nil
	}
	return err
}

func (v *validator) metadataRef(kind, id string, m metadata) error {
	ref, ok, err := m.mb.MetadataID()
	if err != nil || !ok {
		return err
	}
	s, err := m.Metadata()
	if err != nil {
		return err
	}
	if s == nil {
		v.res.warnf(kind, id, "metadata section %s does not exist", ref)
	}
	return nil
}

func (v *validator) sourceRefs(kind, id string, p provenance) error {
	ids, err := p.SourceIDs()
	if err != nil {
		return err
	}
	for _, ref := range ids {
		s, err := p.block.sourceByID(ref)
		if err != nil {
			return err
		}
		if s == nil {
			v.res.warnf(kind, id, "source %s does not exist", ref)
		}
	}
	return nil
}

func (v *validator) block(b *Block) error {
	if err := v.entity("block", b); err != nil {
		return err
	}
	if err := v.metadataRef("block", b.ID(), b.metadata); err != nil {
		return err
	}

	sources, err := b.FindSources(AcceptAll, Unbounded)
	if err != nil {
		return err
	}
	for _, s := range sources {
		if err := v.entity("source", s); err != nil {
			return err
		}
		if err := v.metadataRef("source", s.ID(), s.metadata); err != nil {
			return err
		}
	}

	arrays, err := b.DataArrays()
	if err != nil {
		return err
	}
	for _, d := range arrays {
		if err := v.dataArray(d); err != nil {
			return err
		}
	}

	tags, err := b.Tags()
	if err != nil {
		return err
	}
	for _, t := range tags {
		if err := v.tag(t); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) dataArray(d *DataArray) error {
	if err := v.entity("data array", d); err != nil {
		return err
	}
	if err := v.metadataRef("data array", d.ID(), d.metadata); err != nil {
		return err
	}
	if err := v.sourceRefs("data array", d.ID(), d.provenance); err != nil {
		return err
	}

	dt, err := d.DataType()
	if err := v.attrErr("data array", d.ID(), "data type", err); err != nil {
		return err
	}
	if err == nil && !types.IsValidDataType(dt) {
		v.res.errorf("data array", d.ID(), "invalid data type %q", dt)
	}

	shape, err := d.Shape()
	if err := v.attrErr("data array", d.ID(), "shape", err); err != nil {
		return err
	}
	data, err := d.ReadData()
	if err := v.attrErr("data array", d.ID(), "payload", err); err != nil {
		return err
	}
	if len(data) > 0 {
		n := 1
		for _, dim := range shape {
			n *= dim
		}
		if len(shape) == 0 || n != len(data) {
			v.res.errorf("data array", d.ID(), "%d samples do not match shape %v", len(data), shape)
		}
	}
	return nil
}

func (v *validator) tag(t *Tag) error {
	if err := v.entity("tag", t); err != nil {
		return err
	}
	if err := v.metadataRef("tag", t.ID(), t.metadata); err != nil {
		return err
	}
	if err := v.sourceRefs("tag", t.ID(), t.provenance); err != nil {
		return err
	}

	pos, err := t.Position()
	if err != nil {
		return err
	}
	if len(pos) == 0 {
		v.res.errorf("tag", t.ID(), "no position")
	}
	ext, err := t.Extent()
	if err != nil {
		return err
	}
	if len(ext) > 0 && len(ext) != len(pos) {
		v.res.errorf("tag", t.ID(), "extent has %d dimensions, position has %d", len(ext), len(pos))
	}

	refs, err := t.ReferenceIDs()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		ok, err := t.block.HasDataArray(ref)
		if err != nil {
			return err
		}
		if !ok {
			v.res.warnf("tag", t.ID(), "referenced data array %s does not exist", ref)
		}
	}
	return nil
}

func (v *validator) section(s *Section) error {
	if err := v.entity("section", s); err != nil {
		return err
	}

	id, ok, err := s.b.LinkID()
	if err != nil {
		return err
	}
	if ok {
		switch target, err := s.Link(); {
		case err != nil:
			return err
		case target == nil:
			v.res.warnf("section", s.ID(), "link target %s does not exist", id)
		case id == s.ID():
			v.res.warnf("section", s.ID(), "section links to itself")
		}
	}

	props, err := s.Properties()
	if err != nil {
		return err
	}
	for _, p := range props {
		if err := v.property(p); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) property(p *Property) error {
	name, err := p.Name()
	if err := v.attrErr("property", p.ID(), "name", err); err != nil {
		return err
	}
	if name == "" && err == nil {
		v.res.errorf("property", p.ID(), "empty name")
	}

	dt, err := p.DataType()
	if err := v.attrErr("property", p.ID(), "data type", err); err != nil {
		return err
	}
	if err != nil {
		return nil
	}
	if !types.IsValidDataType(dt) {
		v.res.errorf("property", p.ID(), "invalid data type %q", dt)
		return nil
	}

	values, err := p.Values()
	if errors.Is(err, types.ErrFormatInvalid) || errors.Is(err, types.ErrInvalidDataType) {
		v.res.errorf("property", p.ID(), "values do not decode as %s: %v", dt, err)
		return nil
	}
	if err != nil {
		return err
	}
	if err := types.CheckValues(dt, values); err != nil {
		v.res.errorf("property", p.ID(), "%v", err)
	}
	return nil
}
