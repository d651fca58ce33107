package cache

import (
	"net/url"
	"strconv"
)

type Partition string

const (
	Bookings       Partition = "bookings"
	Booking        Partition = "booking"
	Assets         Partition = "assets"
	Asset          Partition = "asset"
	Users          Partition = "users"
	User           Partition = "user"
	CurrentUser    Partition = "current_user"
	Stats          Partition = "stats"
	UserDashboard  Partition = "user_dashboard"
	AdminDashboard Partition = "admin_dashboard"
)

// Partitions lists every partition the gateway caches.
var Partitions = []Partition{
	Bookings, Booking, Assets, Asset, Users, User,
	CurrentUser, Stats, UserDashboard, AdminDashboard,
}

// Key identifies one cached read. Scope distinguishes entries inside a
// partition: an entity id, or an encoded filter set. Empty scope is the
// unfiltered read.
type Key struct {
	Partition Partition
	Scope     string
}

func (k Key) String() string {
	if k.Scope == "" {
		return string(k.Partition)
	}
	return string(k.Partition) + ":" + k.Scope
}

func For(p Partition) Key {
	return Key{Partition: p}
}

func ForID(p Partition, id int64) Key {
	return Key{Partition: p, Scope: strconv.FormatInt(id, 10)}
}

// ForQuery builds a key from a filter set; unset filters are dropped so
// that equivalent queries share an entry.
func ForQuery(p Partition, filters map[string]string) Key {
	q := url.Values{}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return Key{Partition: p, Scope: q.Encode()}
}
