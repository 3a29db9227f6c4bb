package gen

// Version of the generator, surfaced by the CLI.
const Version = "v1.0.0"
