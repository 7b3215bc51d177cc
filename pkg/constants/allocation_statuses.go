package constants

// --- СТАТУСЫ БРОНИ ПОД ШОУ (совпадает с кодами в БД) ---
const (
	ShowStatusRequested  = "requested"
	ShowStatusAllocated  = "allocated"
	ShowStatusCheckedOut = "checked-out"
	ShowStatusInUse      = "in-use"
	ShowStatusReturned   = "returned"
)

// Статусы, в которых единицы физически находятся вне склада.
var CommittedShowStatuses = []string{
	ShowStatusCheckedOut,
	ShowStatusInUse,
}

// Допустимые статусы брони в порядке жизненного цикла. Переходы разрешены
// в любом направлении между живыми статусами; из returned пути нет.
var ShowStatuses = []string{
	ShowStatusRequested,
	ShowStatusAllocated,
	ShowStatusCheckedOut,
	ShowStatusInUse,
	ShowStatusReturned,
}

func IsKnownShowStatus(code string) bool {
	for _, s := range ShowStatuses {
		if s == code {
			return true
		}
	}
	return false
}

func IsCommittedShowStatus(code string) bool {
	for _, s := range CommittedShowStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- СТАТУСЫ РАЗМЕЩЕНИЯ ПО ЛОКАЦИЯМ ---
const (
	LocationStatusAllocated   = "allocated"
	LocationStatusInUse       = "in-use"
	LocationStatusMaintenance = "maintenance"
	LocationStatusReserved    = "reserved"
)

var LocationStatuses = []string{
	LocationStatusAllocated,
	LocationStatusInUse,
	LocationStatusMaintenance,
	LocationStatusReserved,
}

func IsKnownLocationStatus(code string) bool {
	for _, s := range LocationStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- ТИПЫ УСТАНОВКИ ---
const (
	InstallationPortable      = "portable"
	InstallationSemiPermanent = "semi-permanent"
	InstallationFixed         = "fixed"
)

func IsKnownInstallationType(code string) bool {
	switch code {
	case InstallationPortable, InstallationSemiPermanent, InstallationFixed:
		return true
	}
	return false
}
