package access

import "time"

// SetClock reemplaza el reloj de los servicios en tests.
func (s *SubscriptionService) SetClock(now func() time.Time) { s.now = now }

func (s *SessionService) SetClock(now func() time.Time) { s.now = now }
