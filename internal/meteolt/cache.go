package meteolt

import "sync"

// refCache memoizes the three slow-changing reference collections. Each slot
// is independent: nil means never fetched (or cleared), non-nil means
// populated. There is no TTL; staleness is managed by whoever calls with
// forceUpdate, and Clear drops all three slots in one critical section so no
// reader sees a half-cleared cache.
type refCache struct {
	mu            sync.RWMutex
	places        []Place
	stations      []Station
	hydroStations []HydroStation
}

func (rc *refCache) getPlaces() ([]Place, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.places, rc.places != nil
}

func (rc *refCache) setPlaces(places []Place) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.places = places
}

func (rc *refCache) getStations() ([]Station, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.stations, rc.stations != nil
}

func (rc *refCache) setStations(stations []Station) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.stations = stations
}

func (rc *refCache) getHydroStations() ([]HydroStation, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.hydroStations, rc.hydroStations != nil
}

func (rc *refCache) setHydroStations(stations []HydroStation) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.hydroStations = stations
}

func (rc *refCache) clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.places = nil
	rc.stations = nil
	rc.hydroStations = nil
}
