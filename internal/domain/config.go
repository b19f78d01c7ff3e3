package domain

// KeyPrefix is the namespace for all keys written to the cache store.
const KeyPrefix = "archsearch:"
