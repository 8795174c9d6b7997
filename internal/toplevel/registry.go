package toplevel

// Registry holds finalized records in the order of their first done event.
type Registry struct {
	records []*Record
}

// Finalize marks rec as complete and appends it. Records that were already
// finalized are left alone and false is returned.
func (r *Registry) Finalize(rec *Record) bool {
	if rec.finalized {
		return false
	}
	rec.finalized = true
	r.records = append(r.records, rec)
	return true
}

// Len returns the number of finalized records.
func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns the finalized records in order.
func (r *Registry) Records() []*Record {
	return r.records
}

// Infos returns a view of every finalized record, in order.
func (r *Registry) Infos() []Info {
	infos := make([]Info, 0, len(r.records))
	for _, rec := range r.records {
		infos = append(infos, rec.Info())
	}
	return infos
}

// Destroy destroys every record and empties the registry. The first error
// is returned; every record is destroyed regardless.
func (r *Registry) Destroy() error {
	var first error
	for _, rec := range r.records {
		if err := rec.Destroy(); err != nil && first == nil {
			first = err
		}
	}
	r.records = nil
	return first
}
