// Package pipeline provides a framework for executing export steps in sequence.
//
// An export run processes a source tree through multiple stages: hierarchy
// building, page creation, link resolution with content import, and page
// moves. Each stage is implemented as a Step that receives the current
// report and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running exports
// 4. It keeps the phase ordering, which later phases depend on, in one place
package pipeline
