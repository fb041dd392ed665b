package naming

import "fmt"

// Naming functions for per-store cluster resources.
// Namespace and release share one name so that everything belonging to a
// store can be found (and deleted) under a single identifier.

func Namespace(storeName, id string) string {
	return fmt.Sprintf("%s-%s", storeName, id)
}

func Release(storeName, id string) string {
	return Namespace(storeName, id)
}

func DBSecret(namespace string) string {
	return fmt.Sprintf("%s-db-secret", namespace)
}
