package domain

// Organization is a tenant. Users belong to organizations through a plain
// membership table; departments and roles inside an organization are handled
// elsewhere and are not part of the signing core.
type Organization struct {
	ID      string
	Name    string
	OwnerID string
}
