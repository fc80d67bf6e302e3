// ABOUTME: Package router turns free text into bridge operations.
// ABOUTME: Three-tier resolution with a fixed precedence contract.
package router
