package ble

// Badge GATT identifiers. The data characteristic pushes UTF-8 payloads of
// the form "sound,rssi,acceleration".
const (
	ServiceUUID  = "0000012f-0000-1000-8000-00805f9b34fb"
	DataCharUUID = "0000345f-0000-1000-8000-00805f9b34fb"
)

// Legacy identifiers from the first badge hardware revision. Current badges
// do not expose them; kept for reference.
const (
	LegacyServiceUUID = "a33b0000-6238-11ec-90d6-0242ac120003"
	LegacySoundUUID   = "a33b0100-6238-11ec-90d6-0242ac120003"
	LegacyRSSIUUID    = "a33b0200-6238-11ec-90d6-0242ac120003"
	LegacyAccelUUID   = "a33b0300-6238-11ec-90d6-0242ac120003"
)
