// internal/status/constants.go
package status

// Relay Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per relay.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the relay health state.
const SlotHealthCode = 0

// SlotLifecycleState holds the device lifecycle state (relay.State).
const SlotLifecycleState = 1

// SlotDeliveredHi and SlotDeliveredLo hold the delivered byte count (low 32 bits).
const SlotDeliveredHi = 2
const SlotDeliveredLo = 3

// SlotOverflowsHi and SlotOverflowsLo hold the dropped byte count (low 32 bits).
const SlotOverflowsHi = 4
const SlotOverflowsLo = 5

// SlotBufferOccupancy holds the relay buffer occupancy, saturating.
const SlotBufferOccupancy = 6

// SlotSecondsIdle holds the seconds since the last delivered byte.
const SlotSecondsIdle = 7

// SlotDroppedEvents holds observer events lost by the monitor, saturating.
const SlotDroppedEvents = 8

// LiveSlots is the number of leading slots rewritten incrementally.
const LiveSlots = 9

// ---- RESERVED RANGE ----

// Slots 9–10 and 19 are reserved for future use.
const SlotReservedStart = 9
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state, before the device is ready.
const HealthUnknown uint16 = 0

// HealthOK represents a relay delivering without loss.
const HealthOK uint16 = 1

// HealthError represents a relay that dropped bytes during the last second.
const HealthError uint16 = 2

// HealthStale represents a ready relay that has seen no traffic for StaleAfterSeconds.
const HealthStale uint16 = 3

// HealthDisabled represents a stopped relay.
const HealthDisabled uint16 = 4

// StaleAfterSeconds is the idle time after which a ready relay reports HealthStale.
const StaleAfterSeconds = 60
