// Command newsctl is the operator CLI: schema migration, seeding, admin bootstrap,
// editorial exports and search reindexing.
package main

func main() {
	Execute()
}
