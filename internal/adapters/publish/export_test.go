package publish

// SetClient injects the object storage client.
func SetClient(p *Publisher, c ObjectPutter) {
	p.client = c
}
