package store

// GatewayProvider resolves the Gateway serving a project. Multi-tenant
// deployments register one store per project; single-store deployments use
// the DefaultProvider.
type GatewayProvider interface {
	Provide(projectID string) (Gateway, error)
}

type ProjectGatewayProvider struct {
	stores map[string]Gateway
}

func NewProjectGatewayProvider() *ProjectGatewayProvider {
	return &ProjectGatewayProvider{
		stores: make(map[string]Gateway),
	}
}

func (p *ProjectGatewayProvider) Register(projectID string, gateway Gateway) {
	p.stores[projectID] = gateway
}

func (p *ProjectGatewayProvider) Provide(projectID string) (Gateway, error) {
	if gateway, ok := p.stores[projectID]; ok {
		return gateway, nil
	}

	return nil, ErrStoreNotFound
}

type DefaultProvider struct {
	store Gateway
}

func NewDefaultProvider(store Gateway) *DefaultProvider {
	return &DefaultProvider{store: store}
}

func (p *DefaultProvider) Provide(projectID string) (Gateway, error) {
	return p.store, nil
}
