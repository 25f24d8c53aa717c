package compress

// Compress encodes cache payloads before they hit redis. Snapshots of large
// projects compress well; small deployments use the nop codec.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}
