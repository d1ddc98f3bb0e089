// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// backup.go — scoped backup storage for StrategyBackup.
//
// Usage is always:
//
//	b, err := acquireBackup(v, i) // live value moved out, v valueless
//	if err != nil { return err }
//	defer b.release()             // restores unless committed
//	...construct in place...
//	b.commit()                    // success: drop the backup
//
// release runs on every exit path, panics included, so a failed or panicking
// construction always finds the previous value back in storage.

package variant

import "github.com/sirupsen/logrus"

// backupStorage owns the relocated value for the duration of one replace.
type backupStorage struct {
	owner  *Variant
	target int
	index  int // alternative held in saved; -1 once committed or released
	saved  any
}

// acquireBackup moves v's live value into a new backup and leaves v
// valueless. A valueless v yields an empty backup.
func acquireBackup(v *Variant, target int) (*backupStorage, error) {
	b := &backupStorage{owner: v, target: target, index: v.index()}
	if b.index < 0 {
		return b, nil
	}
	saved, err := v.types.tables.moveConstruct[b.index](v.store.get(b.index))
	if err != nil {
		return nil, err
	}
	b.saved = saved
	v.destroySelf()

	return b, nil
}

// commit discards the backup.
func (b *backupStorage) commit() {
	if b.index < 0 {
		return
	}
	if d := b.owner.types.tables.destroy[b.index]; d != nil {
		d(b.saved)
	}
	b.index, b.saved = -1, nil
}

// release moves the backup back into the owner's storage unless commit ran.
func (b *backupStorage) release() {
	if b.index < 0 {
		return
	}
	v := b.owner
	tb := v.types.tables
	log := v.types.log.WithFields(logrus.Fields{"index": b.index, "target": b.target})
	restored, err := tb.moveConstruct[b.index](b.saved)
	if err != nil {
		// Only reachable when a move declared infallible fails anyway.
		log.WithError(err).Debug("variant: backup restore failed, variant left valueless")
		b.index, b.saved = -1, nil
		return
	}
	v.destroySelf()
	v.store.construct(b.index, restored)
	if d := tb.destroy[b.index]; d != nil {
		d(b.saved)
	}
	log.Debug("variant: construction failed, previous alternative restored from backup")
	b.index, b.saved = -1, nil
}
