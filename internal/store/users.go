package store

import "paulinepos/internal/model"

// AddUser inserts u, generating an id when u.ID is empty, and returns the id.
func (s *Store) AddUser(u model.User) model.UserID {
	s.mutate("AddUser", func() bool {
		if u.ID == "" {
			u.ID = model.UserID(s.newID(model.PrefixUser))
		}
		s.users.put(u.ID, u)
		return true
	})
	return u.ID
}

// AddUserIfEmailFree inserts u unless another account already uses its
// email. The check and the insert happen under the same lock, so two
// concurrent registrations cannot both succeed.
func (s *Store) AddUserIfEmailFree(u model.User) (model.UserID, bool) {
	added := false
	s.mutate("AddUserIfEmailFree", func() bool {
		if s.emailTakenLocked(u.Email, "") {
			return false
		}
		if u.ID == "" {
			u.ID = model.UserID(s.newID(model.PrefixUser))
		}
		s.users.put(u.ID, u)
		added = true
		return true
	})
	if !added {
		return "", false
	}
	return u.ID, true
}

// UpdateUserIfEmailFree applies p unless it moves the user onto an email
// owned by another account. found is false for an unknown user.
func (s *Store) UpdateUserIfEmailFree(id model.UserID, p model.UserPatch) (found, free bool) {
	s.mutate("UpdateUserIfEmailFree", func() bool {
		u, ok := s.users.get(id)
		if !ok {
			return false
		}
		found = true
		if p.Email != nil && s.emailTakenLocked(*p.Email, id) {
			return false
		}
		free = true
		p.Apply(&u)
		s.users.put(id, u)
		return true
	})
	return found, free
}

func (s *Store) emailTakenLocked(email string, except model.UserID) bool {
	key := model.NormalizeEmail(email)
	for _, u := range s.users.values() {
		if u.ID != except && model.NormalizeEmail(u.Email) == key {
			return true
		}
	}
	return false
}

func (s *Store) UpdateUser(id model.UserID, p model.UserPatch) {
	s.mutate("UpdateUser", func() bool {
		u, ok := s.users.get(id)
		if !ok {
			return false
		}
		p.Apply(&u)
		s.users.put(id, u)
		return true
	})
}

// DeleteUser removes the user and ends its session if it was current.
func (s *Store) DeleteUser(id model.UserID) {
	s.mutate("DeleteUser", func() bool {
		if !s.users.remove(id) {
			return false
		}
		if s.currentUserID == id {
			s.currentUserID = ""
		}
		return true
	})
}

func (s *Store) User(id model.UserID) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.get(id)
}

func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.values()
}

// UserByEmail matches case-insensitively and ignores surrounding spaces.
func (s *Store) UserByEmail(email string) (model.User, bool) {
	key := model.NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users.values() {
		if model.NormalizeEmail(u.Email) == key {
			return u, true
		}
	}
	return model.User{}, false
}

// SetCurrentUser records the authenticated user; unknown ids are ignored.
func (s *Store) SetCurrentUser(id model.UserID) {
	s.mutate("SetCurrentUser", func() bool {
		if !s.users.has(id) || s.currentUserID == id {
			return false
		}
		s.currentUserID = id
		return true
	})
}

func (s *Store) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUserID == "" {
		return model.User{}, false
	}
	return s.users.get(s.currentUserID)
}

// Logout clears both session pointers.
func (s *Store) Logout() {
	s.mutate("Logout", func() bool {
		if s.currentUserID == "" && s.currentRestaurantID == "" {
			return false
		}
		s.currentUserID = ""
		s.currentRestaurantID = ""
		return true
	})
}
