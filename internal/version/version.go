package version

// Version is overridden at build time with -ldflags "-X vibesort/internal/version.Version=...".
var Version = "dev"
