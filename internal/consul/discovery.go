package consul

import (
	"fmt"
	"math/rand/v2"
)

// ServiceInstance represents a discovered service instance
type ServiceInstance struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
}

// URL is the base http URL of the instance.
func (i *ServiceInstance) URL() string {
	return fmt.Sprintf("http://%s:%d", i.Address, i.Port)
}

// ServiceDiscovery defines the interface for service discovery
type ServiceDiscovery interface {
	DiscoverOne(serviceName string) (*ServiceInstance, error)
}

// Discover retrieves all healthy instances of a service
func (c *Client) Discover(serviceName string) ([]*ServiceInstance, error) {
	services, _, err := c.api.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to discover service %s: %w", serviceName, err)
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("no healthy instances found for service: %s", serviceName)
	}

	instances := make([]*ServiceInstance, 0, len(services))
	for _, entry := range services {
		instance := &ServiceInstance{
			ID:      entry.Service.ID,
			Name:    entry.Service.Service,
			Address: entry.Service.Address,
			Port:    entry.Service.Port,
			Tags:    entry.Service.Tags,
		}

		// Use node address if service address is empty
		if instance.Address == "" {
			instance.Address = entry.Node.Address
		}

		instances = append(instances, instance)
	}

	return instances, nil
}

// DiscoverOne retrieves a single healthy instance using random load balancing
func (c *Client) DiscoverOne(serviceName string) (*ServiceInstance, error) {
	instances, err := c.Discover(serviceName)
	if err != nil {
		return nil, err
	}
	return instances[rand.IntN(len(instances))], nil
}

// StaticDiscovery resolves service names from a fixed table. It backs local
// runs without a Consul agent and the gateway tests.
type StaticDiscovery map[string]*ServiceInstance

// DiscoverOne implements ServiceDiscovery.
func (s StaticDiscovery) DiscoverOne(serviceName string) (*ServiceInstance, error) {
	instance, ok := s[serviceName]
	if !ok {
		return nil, fmt.Errorf("no instances available for service: %s", serviceName)
	}
	return instance, nil
}
