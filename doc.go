/* Package main: goforth -- a small FORTH

FORTH programs are sequences of whitespace separated words, run left to right
against a single stack of integers. Numbers push themselves; every other word
pops its arguments from the stack and pushes its results back. Built-in
primitives are indistinguishable from user-defined words.

Section 1: Values

The stack holds signed 64-bit integers; arithmetic wraps around on overflow.
Truth is 1 and falsehood 0, though any non-zero value counts as true when
tested by if, until or while.

	1 2 +        ( 3 )
	7 2 /        ( 3; division truncates toward zero )
	3 4 <        ( 1 )

Section 2: Words

A colon definition names a sequence of words:

	: square dup * ;
	5 square     ( 25 )

Definitions may span several input lines; the body is read up to the closing
";" and only then parsed. Names are case-sensitive, while keywords and
primitives match in any case, so DUP and dup are the same word.

Section 3: Variables and constants

A variable names a cell, separate from the stack, initially 0. The word
written just before @ or ! names the cell to fetch or store:

	variable x
	7 x !        ( stores 7 )
	x @          ( 7 )

A constant takes its value from the stack the first time its declaration
runs; afterwards its name pushes that value, and may not be stored to:

	42 constant answer
	answer       ( 42 )

Section 4: Control flow

	cond if ... then
	cond if ... else ... then
	begin ... cond until
	begin ... cond while ... repeat

Conditionals and loops nest freely, inside or outside of word definitions.
The until loop runs its body at least once, stopping when the popped value is
non-zero; the while loop tests before each body run, stopping on zero.

Section 5: Errors

An error stops evaluation of the current input but never ends the session:
definitions, variables and the stack all carry on into the next input. A
division by zero leaves its operands on the stack, and an out of range pick
or roll index is put back, so that the input may be corrected and retried.
Input that fails to parse takes no effect at all.

*/
package main
