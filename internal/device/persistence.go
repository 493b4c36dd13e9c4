package device

import "fmt"

// Device record fields. A device at index N is stored as
// <prefix>_<platform>_Device_<N>_Name, plus _User and _Pass when it has
// credentials and _DisplayName when that differs from the name. Indices
// are contiguous from 0; loading stops at the first missing _Name.
const (
	fieldName        = "Name"
	fieldUser        = "User"
	fieldPass        = "Pass"
	fieldDisplayName = "DisplayName"
)

var recordFields = []string{fieldName, fieldUser, fieldPass, fieldDisplayName}

// maxRecordGap is how many consecutive empty indices past the end of the
// list are searched for leftover records before giving up.
const maxRecordGap = 32

func (r *Registry) recordKey(index int, field string) string {
	return fmt.Sprintf("%s_%s_Device_%d_%s", r.prefix, r.platform, index, field)
}

// LoadFromConfig adds every device recorded in the store and returns how
// many were added. Records naming an already known device only refresh
// its credentials. Does nothing while a save is in progress.
func (r *Registry) LoadFromConfig() int {
	r.mu.Lock()
	added := r.loadLocked()
	r.mu.Unlock()

	for _, d := range added {
		r.discovered.Publish(d)
	}
	return len(added)
}

// SaveToConfig writes the device list to the store and flushes it.
// Does nothing while a load is in progress.
func (r *Registry) SaveToConfig() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveLocked()
}

func (r *Registry) loadLocked() []Device {
	if r.changingConfig || r.store == nil {
		return nil
	}
	r.changingConfig = true
	defer func() { r.changingConfig = false }()

	var added []Device
	index := 0
	for ; ; index++ {
		name, ok := r.store.GetString(r.section, r.recordKey(index, fieldName))
		if !ok {
			break
		}

		displayName, _ := r.store.GetString(r.section, r.recordKey(index, fieldDisplayName))
		if ValidateDisplayName(displayName) != nil {
			displayName = ""
		}
		if d, ok := r.addLocked(name, displayName, "", ""); ok {
			added = append(added, d)
			// Adding normally persists; the guard turns this into a no-op.
			r.saveLocked()
		}

		user, hasUser := r.store.GetString(r.section, r.recordKey(index, fieldUser))
		pass, hasPass := r.store.GetString(r.section, r.recordKey(index, fieldPass))
		if hasUser && hasPass {
			if d, ok := r.byName[name]; ok {
				d.Username = user
				d.Password = pass
			}
		}
	}

	// Credentials attached above must show up in the published copies.
	for i := range added {
		added[i] = *r.byName[added[i].ID.Name]
	}

	if end := r.recordsEnd(index); end > r.persisted {
		r.persisted = end
	}
	if len(added) > 0 {
		r.logger.Info("devices loaded from config", "platform", r.platform, "count", len(added))
	}
	return added
}

func (r *Registry) saveLocked() {
	if r.changingConfig || r.store == nil {
		return
	}
	r.changingConfig = true
	defer func() { r.changingConfig = false }()

	index := 0
	for _, d := range r.devices {
		if r.hostName != "" && d.ID.Name == r.hostName {
			continue
		}

		r.store.SetString(r.section, r.recordKey(index, fieldName), d.ID.Name)
		if d.DisplayName != d.ID.Name {
			r.store.SetString(r.section, r.recordKey(index, fieldDisplayName), d.DisplayName)
		} else {
			r.store.Remove(r.section, r.recordKey(index, fieldDisplayName))
		}
		if d.HasCredentials() {
			r.store.SetString(r.section, r.recordKey(index, fieldUser), d.Username)
			r.store.SetString(r.section, r.recordKey(index, fieldPass), d.Password)
		} else {
			r.store.Remove(r.section, r.recordKey(index, fieldUser))
			r.store.Remove(r.section, r.recordKey(index, fieldPass))
		}
		index++
	}

	// Records past the new end would be picked up again after a gap-free
	// rewrite shrinks the list.
	for stale := index; stale < r.persisted; stale++ {
		for _, field := range recordFields {
			r.store.Remove(r.section, r.recordKey(stale, field))
		}
	}
	r.persisted = index

	if err := r.store.Flush(); err != nil {
		r.logger.Warn("flushing device records failed",
			"platform", r.platform,
			"error", err,
		)
	}
}

// recordsEnd returns one past the highest index holding any device record,
// searching from the first missing index until maxRecordGap consecutive
// indices are empty. Records past a gap are never loaded but must still
// be cleared, or a longer list would make them reachable again.
func (r *Registry) recordsEnd(firstMissing int) int {
	end := firstMissing
	for index, empty := firstMissing, 0; empty < maxRecordGap; index++ {
		if r.hasRecord(index) {
			end = index + 1
			empty = 0
			continue
		}
		empty++
	}
	return end
}

func (r *Registry) hasRecord(index int) bool {
	for _, field := range recordFields {
		if _, ok := r.store.GetString(r.section, r.recordKey(index, field)); ok {
			return true
		}
	}
	return false
}
