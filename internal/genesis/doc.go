// Package genesis loads initial storage state from fixture files and seeds
// it into storages before a test runs.
//
// A fixture lists values by pallet and storage name. YAML and CUE sources
// are both normalized to JSON, the storage codec, so each value is decoded
// by the storage it belongs to:
//
//	pallets:
//	  Example:
//	    Something: 7
//	    Balances: {"1": 100, "2": 50}
//
// CUE fixtures may use the full language (references, defaults,
// constraints) as long as the result is concrete.
package genesis
