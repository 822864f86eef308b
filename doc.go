/*
Package lineindex maintains an incrementally updatable index over the lines of
a mutable text buffer.

Line Index

Editors need to answer questions like “which line contains byte offset X?”,
“where does line N start?” or “which lines are visible in the current
viewport?” many times per keystroke. Re-scanning the text is not an option for
large buffers. This package keeps the lines of a text in a balanced tree, where
each line is weighted by its length in bytes (including the line delimiter).
Edits are spliced into the tree, touching only the lines they affect, and
every query runs in O(log n).

Line delimiters may be `\n`, `\r`, or `\r\n`. The latter makes editing
delicate: inserting or deleting text may create or destroy a `\r\n` pair
across a line boundary. The index therefore re-classifies the delimiter of a
line from the actual trailing characters of the text whenever the length of
the line changes. To do this, it queries a CharacterSource, which is the text
storage owned by the client. The index does not store any text itself.

A second tree keeps the rendered height of each line (a “line frame”), so that
the lines overlapping a vertical interval of the viewport can be found in
O(log n) as well. Line frames are independent of line text: layout passes
change heights without touching the line tree. A bridge pairs lines and
frames one-to-one.

Clients drive the index from their text storage:

	storage.Replace(loc, length, text)       // change the text storage first
	mgr.ReplaceCharacters(loc, length, text) // then tell the index

Package textfile provides a reference text storage which does exactly this.

Offsets and lengths are byte offsets into UTF-8 text.

Concurrency

A Manager is meant to be owned by a single goroutine. Queries may be
interleaved with each other, but never with a concurrent edit.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package lineindex
