// Command relay runs an in-memory development relay server. It stores and
// forwards encrypted blobs between identities without being able to read
// any of them. State is not persisted across restarts.
package main
