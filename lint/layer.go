package lint

// Layer is a module's position in the allowed dependency ordering.
// Classification is total: modules matching no pattern are LayerUnknown.
type Layer int

const (
	LayerUnknown Layer = iota
	LayerDomain
	LayerApplication
	LayerInfrastructure
	LayerInterface
)

func (l Layer) String() string {
	switch l {
	case LayerDomain:
		return "domain"
	case LayerApplication:
		return "application"
	case LayerInfrastructure:
		return "infrastructure"
	case LayerInterface:
		return "interface"
	default:
		return "unknown"
	}
}
