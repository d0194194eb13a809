// Package scanner defines the vulnerability scanner abstraction and the scan
// workflow shared by every implementation. See package zaproxy for the OWASP
// ZAP client and package factory for construction from configuration.
package scanner
