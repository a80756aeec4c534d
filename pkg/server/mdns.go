package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD service type journals advertise on the LAN.
const ServiceType = "_inkjournal._tcp"

// Advertise announces the journal server on the local network. Close the
// returned server (Shutdown) to withdraw the announcement.
func Advertise(name string, port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if name == "" {
		name = host
	}

	service, err := mdns.NewMDNSService(name, ServiceType, "", "", port, nil, []string{"inkjournal", "path=/notes"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discover looks up journal servers for the default lookup timeout and
// returns their "host:port" addresses.
func Discover() ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	var found []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found = append(found, fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()
	err := mdns.Lookup(ServiceType, entries)
	close(entries)
	<-done
	return found, err
}
