package engine

// overlay is the sparse mapping from row id to locally committed field
// patches, including rows that exist only locally. Patches accumulate
// last-write-wins per field and are never evicted within a session.
type overlay struct {
	patches map[string]map[Field]string
	order   []string // first-commit order, drives placement of overlay-only rows
}

func newOverlay() *overlay {
	return &overlay{patches: make(map[string]map[Field]string)}
}

// commit merges a single field override into the patch for id, creating the
// patch if absent.
func (o *overlay) commit(id string, f Field, v string) {
	p, ok := o.patches[id]
	if !ok {
		p = make(map[Field]string)
		o.patches[id] = p
		o.order = append(o.order, id)
	}
	p[f] = v
}

// add records an entire locally created row as a patch entry.
func (o *overlay) add(id string, fields map[Field]string) {
	p, ok := o.patches[id]
	if !ok {
		p = make(map[Field]string)
		o.patches[id] = p
		o.order = append(o.order, id)
	}
	for f, v := range fields {
		p[f] = v
	}
}

// apply returns r with its patch (if any) merged over it. Patched fields win;
// IsEdited is forced true whenever a patch exists.
func (o *overlay) apply(r Row) Row {
	p, ok := o.patches[r.ID]
	if !ok {
		return r
	}
	for f, v := range p {
		r.set(f, v)
	}
	r.IsEdited = true
	return r
}

// build materializes an overlay-only entry as a row. The row exists solely in
// the overlay, so it is both new and edited.
func (o *overlay) build(id string) Row {
	r := Row{ID: id, IsNew: true, IsEdited: true}
	for f, v := range o.patches[id] {
		r.set(f, v)
	}
	return r
}
