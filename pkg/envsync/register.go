package envsync

import (
	"context"

	"quantwp/pkg/hooks"
)

// AdminInitPriority is the priority the sync runs at on admin_init.
const AdminInitPriority = 5

// Register runs the sync during the host's init phase and, when the host
// supports actions, on every admin_init.
func (s *Syncer) Register(host hooks.Host) {
	host.OnInit(func(ctx context.Context) error {
		_, err := s.Sync(ctx)
		return err
	})
	if ah, ok := host.(hooks.ActionHost); ok {
		ah.AddAction(hooks.ActionAdminInit, func(ctx context.Context) error {
			_, err := s.Sync(ctx)
			return err
		}, AdminInitPriority)
	}
}
