package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission guards one route pattern. Permissions holds the roles allowed
// through; an empty list admits any authenticated staff member.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

// PermissionData is the embedded route table. A top-level Skip disables
// role checks everywhere.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	routes map[string]Permission
}

func routeKey(method, path string) string {
	return method + " " + path
}

// FindPermissions looks up the chi route pattern, not the raw request path.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.routes == nil {
		r.index()
	}

	return r.routes[routeKey(method, path)]
}

func (r *PermissionData) index() {
	r.routes = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := r.routes[key]; dup {
			log.Warn().Str("route", key).Msg("Duplicate permission entry ignored")

			continue
		}

		r.routes[key] = endpoint
	}
}

func Get() *PermissionData {
	var data PermissionData

	if err := json.Unmarshal(permissionsData, &data); err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	data.index()

	log.Info().Int("endpoints", len(data.routes)).Msg("Loaded embedded permissions")

	return &data
}
