package nodestore

type Option func(*StoreOptions)

type StoreOptions struct {
	codec *Codec
}

// WithCodec sets the codec used for the stored node records. When not
// provided the store creates a deterministic CBOR codec.
func WithCodec(codec Codec) Option {
	return func(o *StoreOptions) {
		o.codec = &codec
	}
}
