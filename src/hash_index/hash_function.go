package hashindex

import "hash/fnv"

// hashKey computes the hash value of a key
func hashKey(key []byte) uint32 {
	h := fnv.New32a()
	h.Write(key)
	return h.Sum32()
}
