package model

// Version is the release of the day7 binary.
const Version = "0.3.0"
