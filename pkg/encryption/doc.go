// Package encryption provides the symmetric cipher used to protect raw
// extraction payloads at rest.
//
// Payloads are sealed with AES-256-GCM under the server data key
// (COMPLY_DATA_KEY). The owning record's ID is passed as additional
// authenticated data so a ciphertext cannot be replayed onto another row.
package encryption
