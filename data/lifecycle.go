package data

import (
	"errors"
)

// Close closes the broker and database connections.
func (d *Data) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.publisher != nil && d.msgDriver != nil {
		if err := d.msgDriver.Close(d.publisher); err != nil {
			errs = append(errs, err)
		}
	}
	d.publisher = nil

	if d.db != nil {
		var err error
		if d.dbDriver != nil {
			err = d.dbDriver.Close(d.db)
		} else {
			err = d.db.Close()
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
