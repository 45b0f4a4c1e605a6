// Command forge is the CLI for the Asset Forge daemon: it starts generation
// pipelines, inspects their progress, browses the asset catalog, and manages
// configuration.
package main
