package repo

import (
	"fmt"

	"github.com/Alijeyrad/dentalcenter/internal/model"
)

// DefaultSeed returns the first-run dataset keyed by collection. When hash is
// non-nil the user passwords are replaced by hash(password).
func DefaultSeed(hash func(string) (string, error)) (map[string]any, error) {
	users := model.DefaultUsers()
	if hash != nil {
		for i := range users {
			h, err := hash(users[i].Password)
			if err != nil {
				return nil, fmt.Errorf("hash seed password for %s: %w", users[i].Email, err)
			}
			users[i].Password = h
		}
	}

	return map[string]any{
		KeyUsers:     users,
		KeyPatients:  model.DefaultPatients(),
		KeyIncidents: model.DefaultIncidents(),
	}, nil
}
