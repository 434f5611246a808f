// Command launcherd is the voice application launcher daemon. It builds
// the application catalog, serves the loopback status API, and handles
// launch and close intents from the host message bus.
package main
