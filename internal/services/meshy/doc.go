// Package meshy wraps the Meshy 3D task API. All operations are asynchronous:
// CreateImageTo3D, CreateRetexture, and CreateRigging submit a task and return
// its id; the matching *Task getters poll provider state until the task reports
// SUCCEEDED or FAILED. Download fetches finished model binaries into the
// staging directory.
package meshy
